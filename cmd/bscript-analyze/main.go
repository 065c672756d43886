// Copyright (c) 2025 The bscript developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/bscript/analyzer"
)

// Codes that are returned to the operating system.
const (
	rcSuccess = 0
	rcError   = 1
)

type options struct {
	Asm     bool   `short:"a" long:"asm" description:"interpret the script argument as asm text rather than hex"`
	Version string `short:"v" long:"version" default:"segwitv0" description:"script version: legacy, segwitv0, or tapscript"`
	Policy  bool   `short:"p" long:"policy" description:"apply standardness policy rules in addition to consensus rules"`
}

func (o *options) scriptVersion() (analyzer.ScriptVersion, error) {
	switch strings.ToLower(o.Version) {
	case "legacy":
		return analyzer.VersionLegacy, nil
	case "segwitv0":
		return analyzer.VersionSegwitV0, nil
	case "tapscript":
		return analyzer.VersionTapscript, nil
	default:
		return 0, fmt.Errorf("unrecognized script version %q", o.Version)
	}
}

func (o *options) ruleSet() analyzer.RuleSet {
	if o.Policy {
		return analyzer.ConsensusAndPolicy
	}
	return analyzer.ConsensusOnly
}

// readScriptArg reads the script operand from args, or from stdin when args
// is empty or its single element is "-".
func readScriptArg(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	if len(args) > 1 {
		return "", fmt.Errorf("too many arguments specified")
	}

	bio := bufio.NewReader(os.Stdin)
	data, err := io.ReadAll(bio)
	if err != nil {
		return "", fmt.Errorf("failed to read script from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// realMain is the real main function for the utility. It is necessary to
// work around the fact that deferred functions do not run when os.Exit is
// called.
func realMain() int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "bscript-analyze"
	parser.Usage = "[OPTIONS] <script-hex-or-asm>"

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return rcSuccess
		}
		return rcError
	}

	arg, err := readScriptArg(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rcError
	}

	var script []byte
	if opts.Asm {
		script, err = analyzer.ParseASM(arg)
	} else {
		script, err = hex.DecodeString(strings.TrimSpace(arg))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode script: %v\n", err)
		return rcError
	}

	version, err := opts.scriptVersion()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rcError
	}

	asm, err := analyzer.Disassemble(script, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode script: %v\n", err)
		return rcError
	}
	fmt.Printf("hex: %s\nscript:\n%s\n\n", hex.EncodeToString(script), asm)

	result, err := analyzer.Analyze(context.Background(), script, version, opts.ruleSet())
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		return rcError
	}

	fmt.Print(result.String())
	return rcSuccess
}

func main() {
	os.Exit(realMain())
}
