// Package pipeline runs the stages of a page scan in sequence.
//
// A scan is navigate (load the page and let it settle), inject (add the rule
// engine bundle), audit (run the engine) and shape (convert its output). Each
// stage is a Step operating on a shared Run. The pipeline stops at the first
// failing step; the caller owns the browser resources the Run refers to.
package pipeline
