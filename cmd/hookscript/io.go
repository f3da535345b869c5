package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/oxhq/hookscript/internal/feature"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
)

// readSource reads path, or stdin when path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// printJSON writes v as a single newline-delimited JSON record to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}

// offsetFromPos converts a "line:column" flag value (1-based line, 0-based
// column, matching ast.Pos) into a byte offset into source.
func offsetFromPos(source, pos string) (int, error) {
	parts := strings.SplitN(pos, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("--pos must be line:column, got %q", pos)
	}
	line, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("--pos line: %w", err)
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("--pos column: %w", err)
	}
	if line < 1 {
		return 0, fmt.Errorf("--pos line must be >= 1")
	}

	offset := 0
	currentLine := 1
	for _, r := range source {
		if currentLine == line {
			break
		}
		offset += len(string(r))
		if r == '\n' {
			currentLine++
		}
	}
	return offset + col, nil
}

// requirePos reads --pos and resolves it to a byte offset, or errors.
func requirePos(source string) (int, error) {
	if flagPos == "" {
		return 0, fmt.Errorf("--pos is required for this command")
	}
	return offsetFromPos(source, flagPos)
}

// featureContext builds a feature.Context from the persistent flags,
// loading --prev-source and --outputs if given.
func featureContext() (feature.Context, error) {
	ctx := feature.Context{HookName: flagHook, ExecutionMode: flagMode}
	if flagPrevSource != "" {
		src, err := readSource(flagPrevSource)
		if err != nil {
			return ctx, err
		}
		ctx.PreviousScriptSource = src
	}
	if flagOutputsJSON != "" {
		var paths map[string]string
		if err := json.Unmarshal([]byte(flagOutputsJSON), &paths); err != nil {
			return ctx, fmt.Errorf("parsing --outputs: %w", err)
		}
		outputs := map[string]*query.ReturnSchema{}
		for id, path := range paths {
			src, err := readSource(path)
			if err != nil {
				return ctx, err
			}
			schema := query.ReturnSchemaOf(src, hostmodel.Default())
			outputs[id] = schema
		}
		ctx.ScriptOutputs = outputs
	}
	return ctx, nil
}
