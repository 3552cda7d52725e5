package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ddvk/scenedoc/amf"
	"github.com/ddvk/scenedoc/scene"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// writeSample writes a single cube object, the document the loader tests start from
func writeSample(filename string, x, y, z float64, compress bool) (err error) {
	root := scene.New()
	cube := scene.NewWithMesh(scene.CreateCube(x, y, z))
	cube.Name = fmt.Sprintf("cube %gx%gx%g", x, y, z)
	root.Add(cube)

	if compress {
		err = amf.SaveCompressed(root, filename)
	} else {
		err = amf.Save(root, filename)
	}
	if err != nil {
		return
	}
	log.Infof("wrote %v", cube)
	return
}

func _main() error {
	x := flag.Float64("x", 10, "size along x in mm")
	y := flag.Float64("y", 5, "size along y in mm")
	z := flag.Float64("z", 2, "size along z in mm")
	compress := flag.Bool("compress", false, "write a zip archive")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Print("missing file")
		return nil
	}
	return writeSample(flag.Arg(0), *x, *y, *z, *compress)
}

func main() {
	prefixed := &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
		ForceColors:     true,
	}
	log.SetFormatter(prefixed)
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
	err := _main()
	if err != nil {
		log.Fatal(err)
	}
}
