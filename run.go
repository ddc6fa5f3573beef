package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/kaybarkbark/gbcater/catalog"
	"github.com/kaybarkbark/gbcater/gb"
	"github.com/kaybarkbark/gbcater/log"
)

// catalogMain scans a folder for ROM images and writes the report.
func catalogMain(args Catalog, cfg Config) {
	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	roms, total, err := catalog.Discover(args.Folder, cfg.Catalog.Extensions)
	checkf(err, "failed to scan %s", args.Folder)
	fmt.Println("Discovered", total, "files")

	jobs := args.Jobs
	if jobs <= 0 {
		jobs = cfg.Catalog.Jobs
	}

	var mu sync.Mutex
	entries, err := catalog.Load(roms, jobs, func(e catalog.Entry) {
		mu.Lock()
		fmt.Printf("Cataloguing %s...\n", e.Cart)
		mu.Unlock()
	})
	checkf(err, "failed to catalogue %s", args.Folder)

	outname := cfg.Catalog.Output
	var w io.WriteCloser
	if args.Out != nil {
		w = args.Out
		outname = args.Out.String()
	} else {
		f, err := os.Create(outname)
		checkf(err, "failed to create report file")
		w = f
	}

	log.ModMain.DebugZ("writing report").
		String("format", args.Format).
		String("output", outname).
		End()

	switch args.Format {
	case "json":
		err = catalog.WriteJSON(w, entries)
	default:
		err = catalog.WriteCSV(w, entries)
	}
	checkf(err, "failed to write report")
	checkf(w.Close(), "failed to write report")

	nweird := 0
	for _, e := range entries {
		if e.Cart.IsWeird() {
			nweird++
		}
	}
	fmt.Printf("Catalogued %d ROMs (%d weird) into %s\n", len(entries), nweird, outname)
}

// romInfosMain prints the decoded header of a single ROM.
func romInfosMain(args RomInfos) {
	cart, err := gb.ReadRom(args.RomPath)
	checkf(err, "failed to open rom")

	if args.JSON {
		buf, err := cart.MarshalJSON()
		checkf(err, "failed to encode rom infos")
		fmt.Println(string(buf))
		return
	}

	cart.PrintInfos(os.Stdout)
}

// configMain shows the configuration, or writes the default one with --init.
func configMain(args ConfigCmd, cfg Config) {
	if args.Init {
		if _, err := os.Stat(ConfigPath()); err == nil {
			fatalf("config file already exists at %s", ConfigPath())
		}
		checkf(SaveConfig(defaultConfig), "failed to write config file")
		fmt.Println("Config written to", ConfigPath())
		return
	}

	fmt.Println("#", ConfigPath())
	buf, err := toml.Marshal(cfg)
	checkf(err, "failed to encode config")
	os.Stdout.Write(buf)
}
