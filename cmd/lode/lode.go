// Copyright 2025 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The lode command resolves and executes a Lode file.
// With no arguments, it starts a read-eval-print loop (REPL).
package main // import "go.lodelang.net/cmd/lode"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"go.lodelang.net/interp"
	"go.lodelang.net/repl"
	"go.lodelang.net/resolve"
	"go.lodelang.net/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	showmodule = flag.Bool("showmodule", false, "on success, print the file's module fields")
	execprog   = flag.String("c", "", "execute program `prog`")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("lode: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	switch {
	case flag.NArg() == 1 || *execprog != "":
		var (
			filename string
			src      interface{}
		)
		if *execprog != "" {
			// Execute provided program.
			filename = "cmdline"
			src = *execprog
		} else {
			// Execute specified file.
			filename = flag.Arg(0)
		}
		f, err := syntax.Parse(filename, src)
		if err != nil {
			repl.PrintError(err)
			return 1
		}
		prog, err := resolve.File(f, nil)
		if err != nil {
			repl.PrintError(err)
			return 1
		}
		m, err := prog.Init()
		if err != nil {
			repl.PrintError(err)
			return 1
		}
		if *showmodule {
			for _, name := range m.Names() {
				v, _ := m.Get(name)
				fmt.Fprintf(os.Stderr, "%s = %s\n", name, v)
			}
		}
	case flag.NArg() == 0:
		fmt.Println("Welcome to Lode (go.lodelang.net)")
		repl.REPL(make(map[string]interp.Value))
	default:
		log.Print("want at most one Lode file name")
		return 1
	}

	return 0
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
