package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type offer struct {
	filename string
	mimeType string
	data     []byte
}

// attachmentSink buffers offered files for the current response.
type attachmentSink struct {
	offers []offer
}

func (a *attachmentSink) Offer(_ context.Context, data []byte, filename, mimeType string) error {
	a.offers = append(a.offers, offer{filename: filepath.Base(filename), mimeType: mimeType, data: data})
	return nil
}

// names lists the offered file names.
func (a *attachmentSink) names() []string {
	out := make([]string, len(a.offers))
	for i, o := range a.offers {
		out[i] = o.filename
	}
	return out
}

// single writes the only offered file as an attachment. It reports false when
// there was not exactly one offer.
func (a *attachmentSink) single(c *gin.Context) bool {
	if len(a.offers) != 1 {
		return false
	}
	attach(c, a.offers[0].filename, a.offers[0].mimeType, a.offers[0].data)
	return true
}

func attach(c *gin.Context, filename, mimeType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mimeType, data)
}
