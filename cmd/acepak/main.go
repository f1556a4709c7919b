package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/youenchene/ACE/internal/pak"
	"github.com/youenchene/ACE/pkg/log"
	"github.com/youenchene/ACE/pkg/utils"
)

const usage = `usage: acepak <command> [flags] archive [paths...]

commands:
  create   store files in a new archive
  list     print the table of an archive, resolving the given paths
  extract  copy the given paths out of an archive`

func main() {
	var logger = log.New()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "create":
		err = create(args, logger)
	case "list":
		err = list(args, logger)
	case "extract":
		err = extract(args, logger)
	default:
		fmt.Println(usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal(err.Error())
	}
}

func create(args []string, logger log.Logger) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	root := fs.String("root", ".", "The folder archive paths are relative to")
	decompress := fs.Bool("decompress", false, "Store compressed files decompressed")
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("create: need an archive and at least one file")
	}

	var files []pak.File
	for _, name := range fs.Args()[1:] {
		rel, err := filepath.Rel(*root, name)
		if err != nil {
			return err
		}
		var data []byte
		if *decompress {
			data, err = utils.LoadFile(name)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return err
		}
		files = append(files, pak.File{Path: filepath.ToSlash(rel), Data: data})
		logger.Debugf("adding %s (%d bytes)", filepath.ToSlash(rel), len(data))
	}

	if err := pak.Create(fs.Arg(0), files); err != nil {
		return err
	}
	logger.Infof("wrote %d files to %s", len(files), fs.Arg(0))
	return nil
}

func list(args []string, logger log.Logger) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("list: need an archive")
	}

	r, err := pak.Open(fs.Arg(0), pak.WithLogger(logger))
	if err != nil {
		return err
	}
	defer r.Close()

	names := make(map[int]string)
	for _, path := range fs.Args()[1:] {
		if i, ok := r.Index(path); ok {
			names[i] = path
		}
	}

	fmt.Printf("%-4s %-10s %-10s %-10s %s\n", "#", "CHECKSUM", "OFFSET", "SIZE", "PATH")
	for i, e := range r.Entries() {
		name, ok := names[i]
		if !ok {
			name = "?"
		}
		fmt.Printf("%-4d %08X   %-10d %-10d %s\n", i, e.Checksum, e.Offset, e.Size, name)
	}
	return nil
}

func extract(args []string, logger log.Logger) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	out := fs.String("o", ".", "The folder to extract to")
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("extract: need an archive and at least one path")
	}

	r, err := pak.Open(fs.Arg(0), pak.WithLogger(logger))
	if err != nil {
		return err
	}
	defer r.Close()

	for _, path := range fs.Args()[1:] {
		data, err := r.ReadFile(path)
		if err != nil {
			return err
		}
		dst := filepath.Join(*out, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return err
		}
		logger.Infof("extracted %s (%d bytes)", path, len(data))
	}
	return nil
}
