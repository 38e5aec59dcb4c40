package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gabrielflorianoo/VoiceCalc/internal/api"
	"github.com/gabrielflorianoo/VoiceCalc/internal/calc"
	"github.com/gabrielflorianoo/VoiceCalc/internal/voice"
)

// record is one JSON line of output.
type record struct {
	Source     string         `json:"source"`
	Line       int            `json:"line"`
	Transcript string         `json:"transcript"`
	Command    api.CommandDTO `json:"command"`
	Result     *float64       `json:"result,omitempty"`
	Display    string         `json:"display,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func main() {
	var (
		inputs     multiFlag
		evaluate   = flag.Bool("eval", false, "Evaluate math commands and include the result")
		outputPath = flag.String("output", "", "Optional path to write JSON lines (defaults to stdout)")
	)
	flag.Var(&inputs, "in", "File with one transcript per line (repeatable, defaults to stdin)")
	flag.Parse()

	out := io.Writer(os.Stdout)
	if *outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
			logrus.Fatalf("create output directory: %v", err)
		}
		file, err := os.Create(*outputPath)
		if err != nil {
			logrus.Fatalf("create output: %v", err)
		}
		defer file.Close()
		out = file
	}

	w := bufio.NewWriter(out)
	defer w.Flush()
	enc := json.NewEncoder(w)

	var stats counts
	if len(inputs) == 0 {
		if err := process("stdin", os.Stdin, enc, *evaluate, &stats); err != nil {
			logrus.Fatalf("read stdin: %v", err)
		}
	}
	for _, path := range inputs {
		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			logrus.Fatalf("open %s: %v", path, err)
		}
		err = process(path, file, enc, *evaluate, &stats)
		file.Close()
		if err != nil {
			logrus.Fatalf("read %s: %v", path, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"transcripts": stats.total,
		"math":        stats.math,
		"nav":         stats.nav,
		"action":      stats.action,
		"none":        stats.none,
		"failed":      stats.failed,
	}).Info("interpretation complete")
}

type counts struct {
	total, math, nav, action, none, failed int
}

func (c *counts) add(k voice.Kind) {
	c.total++
	switch k {
	case voice.KindMath:
		c.math++
	case voice.KindNavigate:
		c.nav++
	case voice.KindAction:
		c.action++
	default:
		c.none++
	}
}

func process(source string, r io.Reader, enc *json.Encoder, evaluate bool, stats *counts) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		transcript := strings.TrimSpace(scanner.Text())
		if transcript == "" {
			continue
		}
		rec := interpret(transcript, evaluate)
		rec.Source = source
		rec.Line = line
		stats.add(rec.Command.Type)
		if rec.Error != "" {
			stats.failed++
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func interpret(transcript string, evaluate bool) record {
	cmd := voice.Classify(transcript)
	rec := record{Transcript: transcript, Command: api.CommandFromModel(cmd)}
	if !evaluate || cmd.Kind != voice.KindMath {
		return rec
	}
	value, err := calc.Evaluate(cmd.Expression)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	rec.Result = &value
	rec.Display = calc.FormatNumber(value)
	return rec
}

type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}
