// Package errors_test covers the AppError type, its factory functions, and the
// error-chain helpers.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/metmap/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"invalid model", errors.ErrCodeModelInvalid, "duplicate compound id"},
		{"invalid param", errors.CodeInvalidParam, "workers must be positive"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.Contains(t, ae.Stack, "errors_test.go")
		})
	}
}

func TestAppError_ErrorFormat(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeModelInvalid, "duplicate compound id").WithDetail("id=atp")
	assert.Equal(t, "[MAP_001] duplicate compound id: id=atp", ae.Error())

	wrapped := errors.Wrap(fmt.Errorf("boom"), errors.ErrCodePassFailed, "pass failed")
	assert.Equal(t, "[MAP_002] pass failed: boom", wrapped.Error())
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_PreservesCodeWhenUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeModelLoadFailed, "cannot read model")
	outer := errors.Wrap(inner, errors.CodeUnknown, "mapping run failed")

	assert.Equal(t, errors.ErrCodeModelLoadFailed, outer.Code)
	assert.True(t, stderrors.Is(outer, inner))
}

func TestWrap_ChainInspection(t *testing.T) {
	t.Parallel()

	sentinel := stderrors.New("disk full")
	ae := errors.Wrap(sentinel, errors.ErrCodeDiagnosticsFailed, "write compound_log.tsv")
	err := fmt.Errorf("run: %w", ae)

	assert.True(t, errors.IsCode(err, errors.ErrCodeDiagnosticsFailed))
	assert.False(t, errors.IsCode(err, errors.ErrCodePassFailed))
	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, errors.ErrCodeDiagnosticsFailed, errors.GetCode(err))
}

func TestGetCode_NilAndForeign(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Exit statuses
// ─────────────────────────────────────────────────────────────────────────────

func TestExitStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, errors.ExitStatus(errors.CodeOK))
	assert.Equal(t, 2, errors.ExitStatus(errors.ErrCodeMappingParamsInvalid))
	assert.Equal(t, 6, errors.ExitStatus(errors.ErrCodePassFailed))
	assert.Equal(t, 1, errors.ExitStatus(errors.ErrorCode("NOPE_999")))
}

func TestErrorCode_Module(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MAP", errors.ErrCodePassFailed.Module())
	assert.Equal(t, "COMMON", errors.CodeInternal.Module())
	assert.Equal(t, "OK", errors.CodeOK.Module())
}

//Personal.AI order the ending
