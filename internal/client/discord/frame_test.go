package discord

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameUsesLittleEndianHeader(t *testing.T) {
	// Given
	var buf bytes.Buffer
	payload := []byte(`{"v":1}`)

	// When
	err := writeFrame(&buf, OpHandshake, payload)

	// Then
	require.NoError(t, err)
	raw := buf.Bytes()
	require.Len(t, raw, frameHeaderSize+len(payload))
	assert.Equal(t, []byte{0, 0, 0, 0}, raw[0:4])
	assert.Equal(t, []byte{7, 0, 0, 0}, raw[4:8])
	assert.Equal(t, payload, raw[8:])
}

func TestReadFrameRoundTrip(t *testing.T) {
	// Given
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, OpFrame, []byte(`{"cmd":"DISPATCH"}`)))
	require.NoError(t, writeFrame(&buf, OpPing, nil))

	// When
	op1, payload1, err1 := readFrame(&buf)
	op2, payload2, err2 := readFrame(&buf)

	// Then
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, OpFrame, op1)
	assert.JSONEq(t, `{"cmd":"DISPATCH"}`, string(payload1))
	assert.Equal(t, OpPing, op2)
	assert.Empty(t, payload2)
}

func TestReadFrameRejectsOversizedPayload(t *testing.T) {
	// Given
	header := make([]byte, frameHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(OpFrame))
	binary.LittleEndian.PutUint32(header[4:8], maxFrameSize+1)

	// When
	_, _, err := readFrame(bytes.NewReader(header))

	// Then
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	// Given
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, OpFrame, []byte(`{"cmd":"SET_ACTIVITY"}`)))
	truncated := buf.Bytes()[:buf.Len()-3]

	// When
	_, _, err := readFrame(bytes.NewReader(truncated))

	// Then
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadFrameEmptyStream(t *testing.T) {
	// When
	_, _, err := readFrame(bytes.NewReader(nil))

	// Then
	assert.ErrorIs(t, err, io.EOF)
}
