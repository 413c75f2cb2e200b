// Package display renders user-facing terminal output for the juno CLI:
// warnings about input files that were skipped, the manifest table printed
// by `juno validate`, and step progress while a run is prepared.
//
// All functions write to an io.Writer. ANSI colours are only emitted when the
// writer is a terminal (see ColorEnabled), so output captured in files or
// tests stays plain.
//
//	for _, w := range display.ReportWarnings(report, minLines) {
//	    w.Display(os.Stderr)
//	}
//	display.PrintManifest(os.Stdout, manifest, modality)
package display
