package report

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// verifyPDF checks that assembled bytes form a readable PDF and returns
// its page count. It runs before anything is persisted, so a failed
// assembly never leaves a corrupt file behind.
func verifyPDF(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("assembled pdf failed validation: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("assembled pdf has no readable page tree: %w", err)
	}
	if ctx.PageCount == 0 {
		return 0, fmt.Errorf("assembled pdf has zero pages")
	}
	return ctx.PageCount, nil
}
