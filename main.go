package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ddvk/scenedoc/amf"
	"github.com/ddvk/scenedoc/localize"
	"github.com/ddvk/scenedoc/scene"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

type options struct {
	lang         string
	translations string
	out          string
	compress     bool
	verbose      bool
}

func printScene(w io.Writer, tr localize.Translator, header amf.Header, root *scene.Object3D) {
	label := func(s string) string {
		return localize.Translate(tr, s)
	}
	fmt.Fprintf(w, "%s: %s\n", label("Unit"), header.Unit)
	fmt.Fprintf(w, "%s: %d\n", label("Objects"), len(root.Children))
	for i, obj := range root.Children {
		name := obj.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		fmt.Fprintf(w, "\t%s: %s\n", label("Object"), name)
		for _, n := range obj.MeshNodes() {
			fmt.Fprintf(w, "\t\t%s: %d %s: %d\n",
				label("Vertices"), len(n.Mesh.Vertices),
				label("Triangles"), len(n.Mesh.Faces))
		}
	}
	if bbox := root.Bounds(); !bbox.Empty() {
		size := bbox.Size()
		fmt.Fprintf(w, "%s: %g x %g x %g mm\n", label("Size"), size[0], size[1], size[2])
	}
}

func loadTranslator(opts options) (localize.Translator, error) {
	if opts.lang == "" {
		return localize.Identity{}, nil
	}
	return localize.Load(opts.translations, opts.lang)
}

func run(ctx context.Context, opts options, filename string) error {
	tr, err := loadTranslator(opts)
	if err != nil {
		return err
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	dec := amf.NewDecoder(file)
	root, err := dec.Decode(ctx)
	if err != nil {
		return err
	}
	log.Info("parsed: ", root)
	printScene(os.Stdout, tr, dec.Header, root)

	if opts.out == "" {
		return nil
	}
	if opts.compress {
		return amf.SaveCompressed(root, opts.out)
	}
	return amf.Save(root, opts.out)
}

func _main() error {
	var opts options
	flag.StringVar(&opts.lang, "lang", "", "language of the output labels")
	flag.StringVar(&opts.translations, "translations", "Translations", "directory holding <lang>/Translation.txt")
	flag.StringVar(&opts.out, "out", "", "save the loaded document to this file")
	flag.BoolVar(&opts.compress, "compress", false, "save as a zip archive")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	if opts.verbose {
		log.SetLevel(log.DebugLevel)
	}
	if flag.NArg() < 1 {
		log.Print("missing file")
		flag.Usage()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, opts, flag.Arg(0))
}

func main() {
	prefixed := &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
		ForceColors:     true,
	}
	log.SetFormatter(prefixed)
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	err := _main()
	if err != nil {
		log.Fatal(err)
	}
}
