package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"

	avdb "github.com/metno/aerovaldb-sub000"
)

func init() {
	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(log.DebugLevel)
	}
	formatter := &logrus.TextFormatter{}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

type Opts struct {
	Init     bool
	Resolve  bool
	Get      bool
	Put      bool
	Ls       bool
	Cp       bool
	Version  bool
	Route    string   `docopt:"<route>"`
	Keys     []string `docopt:"<keys>"`
	URI      string   `docopt:"<uri>"`
	Filename string   `docopt:"<filename>"`
	Srcdir   string   `docopt:"<srcdir>"`
	Dstdir   string   `docopt:"<dstdir>"`
	Project  string   `docopt:"<project>"`
	Exp      string   `docopt:"<experiment>"`
}

func main() {
	// see https://github.com/google/go-cmdtest
	os.Exit(run())
}

func run() (rc int) {

	usage := `avdb

Usage:
  avdb init
  avdb resolve <route> [<keys>...]
  avdb get <uri>
  avdb put <uri> [<filename>]
  avdb ls
  avdb cp <srcdir> <dstdir>
  avdb version <project> <experiment>

Options:
  -h --help     Show this screen.
  --version     Show version.

The database root is taken from the DBDIR environment variable,
defaulting to the current directory.  Keys are name=value pairs.
`
	parser := &docopt.Parser{OptionsFirst: false}
	o, _ := parser.ParseArgs(usage, os.Args[1:], "0.0")
	var opts Opts
	err := o.Bind(&opts)
	if err != nil {
		log.Error(err)
		return 22
	}
	log.Debug(opts)

	switch true {
	case opts.Init:
		msg, err := create()
		if err != nil {
			log.Error(err)
			return 42
		}
		fmt.Println(msg)
	case opts.Resolve:
		path, err := resolve(opts.Route, opts.Keys)
		if err != nil {
			log.Error(err)
			return 42
		}
		fmt.Println(path)
	case opts.Get:
		buf, err := get(opts.URI)
		if err != nil {
			log.Error(err)
			return 42
		}
		_, err = os.Stdout.Write(buf)
		if err != nil {
			log.Error(err)
			return 25
		}
	case opts.Put:
		var buf []byte
		if opts.Filename != "" {
			buf, err = os.ReadFile(opts.Filename)
		} else {
			buf, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			log.Error(err)
			return 5
		}
		err = put(opts.URI, buf)
		if err != nil {
			log.Error(err)
			return 42
		}
	case opts.Ls:
		uris, err := ls()
		if err != nil {
			log.Error(err)
			return 42
		}
		for _, uri := range uris {
			fmt.Println(uri)
		}
	case opts.Cp:
		n, err := avdb.Copy(opts.Srcdir, opts.Dstdir)
		if err != nil {
			log.Error(err)
			return 42
		}
		fmt.Printf("copied %d assets\n", n)
	case opts.Version:
		v, err := version(opts.Project, opts.Exp)
		if err != nil {
			log.Error(err)
			return 42
		}
		fmt.Println(v)
	}
	return 0
}

func dbdir() (dir string) {
	dir = os.Getenv("DBDIR")
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			panic("can't get current directory")
		}
	}
	return
}

func create() (msg string, err error) {
	db, err := avdb.Open(dbdir())
	if err != nil {
		return
	}
	defer db.Close()
	return fmt.Sprintf("Initialized empty database in %s", db.Dir), nil
}

func opendb() (db *avdb.Db, err error) {
	return avdb.Open(dbdir())
}

// parseKeys turns name=value arguments into a key set.
func parseKeys(args []string) (keys map[string]string, err error) {
	keys = make(map[string]string, len(args))
	for _, arg := range args {
		name, val, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("malformed key %q, want name=value", arg)
		}
		keys[name] = val
	}
	return keys, nil
}

func resolve(route string, args []string) (path string, err error) {
	db, err := opendb()
	if err != nil {
		return
	}
	defer db.Close()
	keys, err := parseKeys(args)
	if err != nil {
		return
	}
	path, err = db.ResolvePath(avdb.Route(route), keys, nil)
	if err != nil {
		if nf, ok := err.(*avdb.NotFoundError); ok {
			// still useful to see where a put would land
			return nf.Path, nil
		}
		return
	}
	return
}

func get(uri string) (buf []byte, err error) {
	db, err := opendb()
	if err != nil {
		return
	}
	defer db.Close()
	return db.GetByURI(uri)
}

func put(uri string, buf []byte) (err error) {
	db, err := opendb()
	if err != nil {
		return
	}
	defer db.Close()
	return db.PutByURI(buf, uri)
}

func ls() (uris []string, err error) {
	db, err := opendb()
	if err != nil {
		return
	}
	defer db.Close()
	return db.ListAll()
}

func version(project, experiment string) (v string, err error) {
	db, err := opendb()
	if err != nil {
		return
	}
	defer db.Close()
	ver, err := db.ProducerVersion(project, experiment)
	if err != nil {
		return
	}
	return ver.String(), nil
}
