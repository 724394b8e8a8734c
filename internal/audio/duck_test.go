package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pactlSample = `Sink Input #42
	Driver: protocol-native.c
	Sample Specification: float32le 2ch 48000Hz
	Volume: front-left: 45875 /  70% / -9.29 dB,   front-right: 45875 /  70% / -9.29 dB
	Properties:
		application.name = "Firefox"
		media.name = "AudioStream"

Sink Input #57
	Driver: protocol-native.c
	Volume: front-left: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "voicekit"
`

func TestParseSinkInputs(t *testing.T) {
	streams := parseSinkInputs(pactlSample)
	require.Len(t, streams, 2)

	assert.Equal(t, 42, streams[0].ID)
	assert.Equal(t, 70, streams[0].Volume)
	assert.Equal(t, "Firefox", streams[0].AppName)

	assert.Equal(t, 57, streams[1].ID)
	assert.Equal(t, 100, streams[1].Volume)
	assert.Equal(t, "voicekit", streams[1].AppName)
}

func TestParseSinkInputsEmpty(t *testing.T) {
	assert.Nil(t, parseSinkInputs(""))
	assert.Nil(t, parseSinkInputs("no sink inputs here"))
}

func TestDuckerIsSelf(t *testing.T) {
	d := NewDucker([]string{"voicekit"}, 20)
	assert.True(t, d.isSelf(streamInfo{AppName: "voicekit"}))
	assert.False(t, d.isSelf(streamInfo{AppName: "Firefox"}))
}

func TestNewDuckerClampsFloor(t *testing.T) {
	assert.Equal(t, 0, NewDucker(nil, -5).minVolume)
	assert.Equal(t, 150, NewDucker(nil, 400).minVolume)
	assert.Equal(t, 25, NewDucker(nil, 25).minVolume)
}
