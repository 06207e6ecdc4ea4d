package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapVMStatus_KnownAborts(t *testing.T) {
	cases := []struct {
		vmStatus string
		want     error
	}{
		{"Move abort in 0xmod::risein_poap: EEVENT_NOT_FOUND(0x1)", ErrEventNotFound},
		{"Move abort in 0xmod::risein_poap: EEVENT_NOT_ACTIVE(0x2)", ErrEventEnded},
		{"Move abort in 0xmod::risein_poap: EALREADY_CLAIMED(0x3)", ErrAlreadyClaimed},
		{"Move abort in 0xmod::risein_poap: EEVENT_FULL(0x4)", ErrEventFull},
		{"Move abort in 0xmod::risein_poap: 0x1", ErrEventNotFound},
		{"Move abort in 0xmod::risein_poap: 0x3", ErrAlreadyClaimed},
	}

	for _, tc := range cases {
		err := MapVMStatus(tc.vmStatus)

		assert.ErrorIs(t, err, tc.want, tc.vmStatus)

		var txErr *TransactionError
		require.ErrorAs(t, err, &txErr)
		assert.Equal(t, tc.vmStatus, txErr.VMStatus)
	}
}

func TestMapVMStatus_UnknownAbort(t *testing.T) {
	err := MapVMStatus("Move abort in 0xother::module: 0x99")

	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Nil(t, txErr.Reason)
	assert.Contains(t, err.Error(), "0x99")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "start_time", Reason: "must be in the future"}

	assert.Equal(t, "validation: start_time: must be in the future", err.Error())
}

func TestTransactionError_UnwrapsToSentinel(t *testing.T) {
	err := &TransactionError{VMStatus: "x", Reason: ErrEventFull}

	assert.True(t, errors.Is(err, ErrEventFull))
	assert.False(t, errors.Is(err, ErrAlreadyClaimed))
}
