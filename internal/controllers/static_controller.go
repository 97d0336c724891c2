package controllers

import (
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/intelliview/intelliview-api/internal/http/response"
)

// StaticController, route'lara uymayan GET/HEAD isteklerini bir dizindeki
// statik dosyalardan karşılar. Dosya yoksa 404 problem dokümanı döner.
type StaticController struct {
	root   http.FileSystem
	files  http.Handler
	enable bool
}

// NewStaticController, dir için controller oluşturur. Dizin yoksa statik
// dosya sunumu kapalıdır ve her istek 404 alır.
func NewStaticController(dir string) *StaticController {
	info, err := os.Stat(dir)
	if dir == "" || err != nil || !info.IsDir() {
		return &StaticController{}
	}

	root := http.Dir(dir)
	return &StaticController{
		root:   root,
		files:  http.FileServer(root),
		enable: true,
	}
}

// Enabled, dizinin bulunup bulunmadığını döndürür.
func (c *StaticController) Enabled() bool {
	return c.enable
}

// Serve, router'ın NotFound handler'ı olarak kullanılır.
func (c *StaticController) Serve(w http.ResponseWriter, r *http.Request) {
	if !c.enable || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		response.NotFound(w, r)
		return
	}
	if !c.exists(r.URL.Path) {
		response.NotFound(w, r)
		return
	}
	c.files.ServeHTTP(w, r)
}

// exists, path'in bir dosyaya ya da index.html içeren bir dizine karşılık
// gelip gelmediğini döndürür.
func (c *StaticController) exists(p string) bool {
	name := path.Clean("/" + p)
	f, err := c.root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}

	index, err := c.root.Open(strings.TrimSuffix(name, "/") + "/index.html")
	if err != nil {
		return false
	}
	index.Close()
	return true
}
