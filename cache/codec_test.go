package cache

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSnapshot_RoundTrip(t *testing.T) {
	_, records := uniqueProducts()
	timestamp := fixedNow()

	data, err := EncodeSnapshot(records, timestamp)
	require.NoError(t, err)

	snapshot, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, records, snapshot.Records)
	assert.True(t, timestamp.Equal(snapshot.Timestamp))
}

func TestEncodeSnapshot_EmptyRecordsStayDistinctFromAbsence(t *testing.T) {
	data, err := EncodeSnapshot(nil, fixedNow())
	require.NoError(t, err)

	snapshot, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.NotNil(t, snapshot.Records)
	assert.Empty(t, snapshot.Records)
}

func TestEncodeSnapshot_RejectsNonFinitePrice(t *testing.T) {
	_, err := EncodeSnapshot([]CacheRecord{{ID: 1, Price: math.NaN()}}, fixedNow())

	assert.True(t, errors.Is(err, ErrEncode), "got %v", err)
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "invalid data"},
		{"empty", ""},
		{"wrong version", `{"version":2,"timestamp":"2024-03-13T12:00:00Z","records":[]}`},
		{"missing timestamp", `{"version":1,"records":[]}`},
		{"missing records", `{"version":1,"timestamp":"2024-03-13T12:00:00Z"}`},
		{"bad record", `{"version":1,"timestamp":"2024-03-13T12:00:00Z","records":[{"id":"one"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := DecodeSnapshot([]byte(tt.data))
			assert.Nil(t, snapshot)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestErrorConstructors_KeepCause(t *testing.T) {
	cause := errors.New("disk full")

	for _, err := range []error{DecodeError(cause), EncodeError(cause), IOError(cause), BackendInitError(cause)} {
		assert.ErrorIs(t, err, cause)
	}
	assert.ErrorIs(t, IOError(cause), ErrIO)
	assert.ErrorIs(t, BackendInitError(cause), ErrBackendInit)
	assert.NotErrorIs(t, IOError(cause), ErrDecode)
}

func TestMapping_PreservesOrderAndFields(t *testing.T) {
	products, records := uniqueProducts()

	assert.Equal(t, records[0].Rating, RatingRecord{Rate: 3.9, Count: 120})
	assert.Equal(t, products, ToProducts(records))
	assert.Empty(t, ToProducts(nil))
}
