package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartRunsScenarioLine(t *testing.T) {
	in := strings.NewReader("literal\n")
	var out bytes.Buffer

	Start(in, &out)

	assert.Contains(t, out.String(), "42")
}

func TestStartRunsScenarioWithArgument(t *testing.T) {
	in := strings.NewReader("fib 10\n")
	var out bytes.Buffer

	Start(in, &out)

	assert.Contains(t, out.String(), "55")
}

func TestStartReportsUnrecognizedScenario(t *testing.T) {
	in := strings.NewReader("nonexistent\n")
	var out bytes.Buffer

	Start(in, &out)

	assert.Contains(t, out.String(), "unrecognized scenario")
}

func TestStartSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("\nliteral\n")
	var out bytes.Buffer

	Start(in, &out)

	assert.Contains(t, out.String(), "42")
}

func TestStartReportsTooManyFields(t *testing.T) {
	in := strings.NewReader("fib 10 20\n")
	var out bytes.Buffer

	Start(in, &out)

	assert.Contains(t, out.String(), "too many fields")
}

func TestParseLineWithoutArgument(t *testing.T) {
	name, arg, err := parseLine("closure")
	assert.NoError(t, err)
	assert.Equal(t, "closure", name)
	assert.EqualValues(t, 0, arg)
}

func TestParseLineWithArgument(t *testing.T) {
	name, arg, err := parseLine("fib 12")
	assert.NoError(t, err)
	assert.Equal(t, "fib", name)
	assert.EqualValues(t, 12, arg)
}

func TestParseLineInvalidArgument(t *testing.T) {
	_, _, err := parseLine("fib abc")
	assert.Error(t, err)
}
