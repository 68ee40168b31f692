package web2pdf

import (
	"fmt"
	"sync"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var _ pdfBackend = (*pdfcpuBackend)(nil)

// pdfcpuBackend implements pdfBackend with pdfcpu.
type pdfcpuBackend struct {
	conf func() *model.Configuration
}

// newPDFCPUBackend defers loading the pdfcpu configuration, which may
// touch the user config dir, until the first write.
func newPDFCPUBackend() *pdfcpuBackend {
	return &pdfcpuBackend{
		conf: sync.OnceValue(func() *model.Configuration {
			conf := model.NewDefaultConfiguration()
			// Browser-generated PDFs are not always strictly conformant.
			conf.ValidationMode = model.ValidationRelaxed
			return conf
		}),
	}
}

// recoverPDFPanic turns a panic raised while parsing a malformed file
// into an error, so one bad input is skipped instead of crashing the run.
func recoverPDFPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pdfcpu: %v", r)
	}
}

// PageCount opens path and returns its page count.
func (b *pdfcpuBackend) PageCount(path string) (n int, err error) {
	defer recoverPDFPanic(&err)
	return pdfapi.PageCountFile(path)
}

// Merge concatenates inputs into output, which is created or truncated.
func (b *pdfcpuBackend) Merge(inputs []string, output string) (err error) {
	defer recoverPDFPanic(&err)
	return pdfapi.MergeCreateFile(inputs, output, false, b.conf())
}

// SetBookmarks copies input to output with toc as its outline,
// replacing any outline the merged sources carried.
func (b *pdfcpuBackend) SetBookmarks(input, output string, toc []TOCEntry) (err error) {
	defer recoverPDFPanic(&err)
	bms := make([]pdfcpu.Bookmark, 0, len(toc))
	for _, e := range toc {
		bms = append(bms, pdfcpu.Bookmark{Title: e.Label, PageFrom: e.Page})
	}
	return pdfapi.AddBookmarksFile(input, output, bms, true, b.conf())
}
