package errors

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFaultPanicsWithRuntimeFault(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		f, ok := r.(*RuntimeFault)
		require.True(t, ok)
		assert.Equal(t, FaultTypeMismatch, f.Code)
		assert.Contains(t, f.Error(), "expected int")
	}()
	NewFault(FaultTypeMismatch, "expected int, got %s", "bool")
}

func TestRecoverWrapsRuntimeFault(t *testing.T) {
	fault := NewFaultValue(FaultIndexOutOfRange, "index 5 out of range")
	got := Recover(fault)
	assert.Same(t, fault, got)
}

func TestRecoverWrapsArbitraryPanic(t *testing.T) {
	got := Recover("some other panic")
	assert.Equal(t, "E0200", got.Code)
	assert.Contains(t, got.Error(), "some other panic")
}

func TestDescriptionKnownAndUnknownCodes(t *testing.T) {
	assert.NotEqual(t, "unknown error code", Description(FaultTypeMismatch))
	assert.Equal(t, "unknown error code", Description("E9999"))
}

func TestBuildErrorReportWritesCodeAndMessage(t *testing.T) {
	e := NewBuildError(ErrorUndefinedVariable, "undefined variable %q", "x")
	var buf bytes.Buffer
	e.Report(&buf)
	assert.Contains(t, buf.String(), ErrorUndefinedVariable)
	assert.Contains(t, buf.String(), `"x"`)
}

func TestRuntimeFaultReportWritesCodeAndMessage(t *testing.T) {
	f := NewFaultValue(FaultArgumentCount, "closure %q expects %d arguments, got %d", "f", 2, 1)
	var buf bytes.Buffer
	f.Report(&buf)
	assert.Contains(t, buf.String(), FaultArgumentCount)
	assert.Contains(t, buf.String(), "closure")
}
