package mkcontrol

import (
	"embed"
	"io/fs"
	"time"

	"github.com/juho05/log"
)

//go:embed ui/html
var htmlFS embed.FS

//go:embed ui/static
var staticFS embed.FS

var (
	HTMLFS   fs.FS
	StaticFS fs.FS
)

// StartTime is used as the Last-Modified timestamp of embedded assets.
var StartTime = time.Now()

func init() {
	var err error
	HTMLFS, err = fs.Sub(htmlFS, "ui/html")
	if err != nil {
		log.Fatal(err)
	}
	StaticFS, err = fs.Sub(staticFS, "ui/static")
	if err != nil {
		log.Fatal(err)
	}
}
