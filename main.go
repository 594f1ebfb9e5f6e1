// =============================================================================
// DCIR Bar Rewriter - Main Entry Point
// =============================================================================
//
// USAGE:
//   rewriter process       - Rewrite every DCIR file in the input directory
//   rewriter rewrite       - Rewrite one file, or stdin to stdout
//   rewriter watch         - Rewrite files as they arrive
//   rewriter validate      - Validate the configuration without processing
//   rewriter version       - Display the application version
//
// LAYOUT:
//   - cmd/             : CLI command definitions (Cobra)
//   - internal/dcir    : The record format and the line-stream transformer
//   - internal/        : Configuration, bar lists, pipeline, reports, watcher
//   - pkg/utils        : File management and run logs
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/DCIR-bar-rewriter/cmd"
)

func main() {
	cmd.Execute()
}
