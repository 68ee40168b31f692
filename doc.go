// Package web2pdf renders web articles to PDF with a real browser and
// merges the results into one bookmarked document.
//
// # Quick Start
//
//	p, err := web2pdf.New(
//	    web2pdf.WithWorkDir("out"),
//	    web2pdf.WithHeadless(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := p.Run(ctx, []string{
//	    "https://example.com/a",
//	    "https://example.com/b",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Merge.OutputPath, report.Merge.Pages)
//
// # Pipeline
//
// Run goes through three stages:
//
//  1. Dispatch: every URL gets its own goroutine and its own browser
//     (go-rod). A worker navigates, scrolls to trigger lazy-loaded
//     content, names the file after the page title and prints the page
//     to PDF. Failures are returned as results, never as panics.
//  2. Barrier: Batch.Wait returns once every task has a result, in
//     whatever order they finished, and hands them back in input order.
//  3. Merge: successful outputs (input order) followed by the other PDFs
//     of the work dir (sorted by name) are concatenated with pdfcpu. Each
//     document gets a top-level bookmark "N. name" pointing at its first
//     page. Unreadable documents are skipped but keep their number.
//
// Use MergeOnly to merge a directory without converting anything, and
// ConvertOnly to skip the merge.
//
// # Errors
//
// Conversion failures wrap sentinels such as ErrNavigationTimeout,
// ErrLazyLoad or ErrPDFGeneration and are found in ConversionResult.Err.
// Run itself only fails with ErrNoPDFs, ErrNoValidContent, ErrMergeWrite
// or a context error.
package web2pdf
