package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestHandleMessage_CreatedEvent(t *testing.T) {
	dir := chtemp(t)

	body, err := json.Marshal(BookingCreatedEvent{
		Event:        "booking.created",
		BookingID:    42,
		PujaTypeID:   3,
		PujaTypeName: "Ganesh Puja",
		CustomerID:   "cust-guid",
		PujaDate:     "2026-09-10",
		TotalAmount:  2500,
		Currency:     "INR",
		CreatedAt:    "2026-03-01T12:00:00Z",
	})
	require.NoError(t, err)

	require.NoError(t, handleMessage(body))

	out, err := os.ReadFile(filepath.Join(dir, "logs", "booking.log"))
	require.NoError(t, err)
	line := string(out)
	assert.Contains(t, line, "booking.created")
	assert.Contains(t, line, "booking_id=42")
	assert.Contains(t, line, `puja_type="Ganesh Puja" (3)`)
	assert.Contains(t, line, "2026-03-01T12:00:00Z")
	assert.Contains(t, line, "2500.00 INR")
}

func TestHandleMessage_CancelledEventUsesCancelledAt(t *testing.T) {
	dir := chtemp(t)

	body, err := json.Marshal(BookingCancelledEvent{
		Event:       "booking.cancelled",
		BookingID:   7,
		CustomerID:  "cust-guid",
		PujaDate:    "2026-09-10",
		TotalAmount: 1500,
		Currency:    "USD",
		CancelledAt: "2026-04-02T08:30:00Z",
	})
	require.NoError(t, err)

	require.NoError(t, handleMessage(body))

	out, err := os.ReadFile(filepath.Join(dir, "logs", "booking.log"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "[2026-04-02T08:30:00Z] booking.cancelled")
}

func TestHandleMessage_BadPayload(t *testing.T) {
	chtemp(t)
	assert.Error(t, handleMessage([]byte("{not json")))
}

func TestHandleMessage_AppendsLines(t *testing.T) {
	dir := chtemp(t)

	one, _ := json.Marshal(BookingCreatedEvent{Event: "booking.created", BookingID: 1})
	two, _ := json.Marshal(BookingCancelledEvent{Event: "booking.cancelled", BookingID: 2})
	require.NoError(t, handleMessage(one))
	require.NoError(t, handleMessage(two))

	out, err := os.ReadFile(filepath.Join(dir, "logs", "booking.log"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "booking_id=1")
	assert.Contains(t, string(out), "booking_id=2")
}
