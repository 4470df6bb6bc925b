// Package html2pdf converts HTML documents to paginated PDF using headless
// Chromium.
//
// # Quick Start
//
// Create a converter, convert HTML, and close when done:
//
//	conv, err := html2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	doc, err := conv.Convert(ctx, html2pdf.ConversionRequest{
//	    HTML: "<h1>Hello</h1>",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", doc.PDF, 0644)
//
// # Conversion Pipeline
//
// Each call to Convert runs these stages:
//
//  1. Provision: make sure a pinned Chromium revision is installed
//     (downloaded once, then cached)
//  2. Launch: start a dedicated browser process with a fresh profile
//  3. Load: set the document content, wait for the load event and fonts
//  4. Print: print with fixed margins, a "page X of Y" header and a footer
//  5. Verify: parse the PDF and count its pages
//  6. Teardown: close the page, kill the process tree, remove the profile
//
// Teardown runs on every path, including errors, timeouts and cancellation.
// No browser process is ever shared between two conversions.
//
// # Errors
//
// Failures are typed and match a sentinel with errors.Is:
//
//	*ProvisioningError  ErrProvisioning   no usable browser binary
//	*LaunchError        ErrLaunch         browser did not start
//	*RenderTimeoutError ErrRenderTimeout  a stage hit its deadline
//	*RenderError        ErrRender         engine or output failure
//
// # Concurrency
//
// Converter is safe for concurrent use, but every conversion costs one
// browser process. Wrap it in a ConverterPool to cap them:
//
//	pool := html2pdf.NewConverterPool(conv, html2pdf.ResolvePoolSize(0))
//	doc, err := pool.Convert(ctx, req)
//
// # Browser Requirements
//
// By default go-rod downloads a pinned Chromium into its cache directory
// (~/.cache/rod/browser/) on first use. Share one Provisioner between
// converters with WithProvisioner, or point ProvisionerConfig.Bin at a
// pre-installed binary. In containers, use WithNoSandbox(true).
package html2pdf
