package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	scale "github.com/wippyai/scale-codec"
	"github.com/wippyai/scale-codec/dynamic"
	"github.com/wippyai/scale-codec/guest"
	"github.com/wippyai/scale-codec/registry"
)

func main() {
	var (
		typesSrc    = flag.String("types", "", "Type definitions source")
		typesFile   = flag.String("types-file", "", "Path to a type definitions file")
		typeRef     = flag.String("type", "", "Type to encode/decode against (name, expression or index)")
		encodeVal   = flag.String("encode", "", "JSON value to encode")
		decodeHex   = flag.String("decode", "", "Hex bytes to decode (0x prefix optional)")
		list        = flag.Bool("list", false, "List registered types and exit")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *typesSrc == "" && *typesFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: scale -types <defs> -type <name> -encode <json>")
		fmt.Fprintln(os.Stderr, "       scale -types-file <file> -type <name> -decode <hex>")
		fmt.Fprintln(os.Stderr, "       scale -types <defs> -list")
		fmt.Fprintln(os.Stderr, "       scale -types <defs> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		guest.SetLogger(logger)
	}

	reg, err := loadRegistry(*typesSrc, *typesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(reg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(reg, *typeRef, *encodeVal, *decodeHex, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadRegistry(src, file string) (*registry.Registry, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read types file: %w", err)
		}
		src = string(data) + "\n" + src
	}
	return registry.Parse(src)
}

func run(reg *registry.Registry, typeRef, encodeVal, decodeHex string, listOnly bool) error {
	if listOnly {
		for i, def := range reg.Defs() {
			fmt.Printf("%4d  %s\n", i, def.String())
		}
		return nil
	}

	if typeRef == "" {
		return fmt.Errorf("missing -type")
	}

	switch {
	case encodeVal != "":
		dec := json.NewDecoder(bytes.NewReader([]byte(encodeVal)))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("parse value: %w", err)
		}
		data, err := scale.Encode(v, typeRef, reg)
		if err != nil {
			return err
		}
		fmt.Printf("0x%s\n", hex.EncodeToString(data))
		return nil

	case decodeHex != "":
		data, err := dynamic.DecodeHex(decodeHex)
		if err != nil {
			return err
		}
		v, err := scale.Decode(data, typeRef, reg)
		if err != nil {
			return err
		}
		out, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	return fmt.Errorf("nothing to do: pass -encode, -decode or -list")
}
