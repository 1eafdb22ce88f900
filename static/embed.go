package static

import (
	"embed"
	"io/fs"
)

//go:embed index.html assets/*
var embedded embed.FS

// IndexHTML returns the SPA shell document.
func IndexHTML() []byte {
	data, err := embedded.ReadFile("index.html")
	if err != nil {
		// The file is embedded at build time; failure here is a build defect.
		panic(err)
	}
	return data
}

// Assets returns the embedded asset tree rooted at assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
