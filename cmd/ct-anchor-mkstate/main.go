package main

import (
	"log"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/ct-anchor/relay-go/internal/config"
	"github.com/ct-anchor/relay-go/internal/cursor"
)

type startupMode int

const (
	startupEmpty startupMode = iota
	startupSaved
)

func ParseFlags(c *config.Config) startupMode {
	mode := "empty"
	help := false
	getopt.SetParameters("")
	getopt.FlagLong(&c.StateBackend, "state-backend", 0, "Cursor state backend, one of \"file\" (default) or \"sqlite\"")
	getopt.FlagLong(&c.StatePath, "state-path", 0, "Cursor state directory (file backend) or database (sqlite backend)")
	getopt.FlagLong(&mode, "mode", 0, "Mode of operation, 'empty' (default), or 'saved' (no change, only check that saved state exists)")
	getopt.FlagLong(&help, "help", '?', "display help")
	getopt.Parse()
	if help {
		getopt.PrintUsage(os.Stdout)
		os.Exit(0)
	}

	switch mode {
	case "empty":
		return startupEmpty
	case "saved":
		return startupSaved
	default:
		log.Fatalf("unknown mode %q, must be one of \"empty\" or \"saved\"", mode)
		return startupEmpty
	}
}

func main() {
	log.SetFlags(0)
	var conf *config.Config
	// Read default values from the Config struct
	confFile, err := config.OpenConfigFile()
	if err != nil {
		log.Printf("didn't find configuration file, using defaults: %v", err)
		conf = config.NewConfig()
	} else {
		conf, err = config.LoadConfig(confFile)
		if err != nil {
			log.Fatalf("failed to parse config file: %v", err)
		}
	}

	mode := ParseFlags(conf)

	switch conf.StateBackend {
	case "file":
		switch mode {
		case startupEmpty:
			if err := cursor.InitDir(conf.StatePath); err != nil {
				log.Fatalf("initializing state directory failed: %v", err)
			}
		case startupSaved:
			checkIsDir(conf.StatePath)
		}
	case "sqlite":
		switch mode {
		case startupEmpty:
			if err := cursor.InitSQLite(conf.StatePath); err != nil {
				log.Fatalf("initializing state database failed: %v", err)
			}
		case startupSaved:
			checkExists(conf.StatePath)
		}
	default:
		log.Fatalf("unknown state backend %q, must be \"file\" or \"sqlite\"", conf.StateBackend)
	}
}

func checkIsDir(path string) {
	fi, err := os.Stat(path)
	if err != nil {
		log.Fatalf("State directory %q doesn't exist: %v", path, err)
	}
	if !fi.IsDir() {
		log.Fatalf("State path %q is not a directory.", path)
	}
}

func checkExists(path string) {
	if _, err := os.Stat(path); err != nil {
		log.Fatalf("State database %q doesn't exist: %v", path, err)
	}
}
