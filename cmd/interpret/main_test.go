package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielflorianoo/VoiceCalc/internal/voice"
)

func TestInterpret(t *testing.T) {
	rec := interpret("dois vezes três mais dez", true)
	assert.Equal(t, voice.KindMath, rec.Command.Type)
	require.NotNil(t, rec.Command.Expression)
	assert.Equal(t, "2*3+10", *rec.Command.Expression)
	require.NotNil(t, rec.Result)
	assert.Equal(t, 16.0, *rec.Result)
	assert.Equal(t, "16", rec.Display)

	rec = interpret("dois vezes três", false)
	assert.Nil(t, rec.Result)
	assert.Empty(t, rec.Display)

	rec = interpret("5 dividido por zero", true)
	assert.NotEmpty(t, rec.Error)

	rec = interpret("ir para histórico", true)
	assert.Equal(t, voice.KindNavigate, rec.Command.Type)
	assert.Equal(t, voice.ModeHistory, rec.Command.Mode)
	assert.Nil(t, rec.Command.Expression)
}

func TestProcess(t *testing.T) {
	input := "um mais um\n\n  salvar  \nbom dia\n5 menos\n"
	var buf bytes.Buffer
	var stats counts

	require.NoError(t, process("test", strings.NewReader(input), json.NewEncoder(&buf), true, &stats))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var first record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "test", first.Source)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "2", first.Display)

	var second record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "salvar", second.Transcript)
	assert.Equal(t, voice.ActionSave, second.Command.Action)

	assert.Equal(t, counts{total: 4, math: 2, action: 1, none: 1, failed: 1}, stats)
}
