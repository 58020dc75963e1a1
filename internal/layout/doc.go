// Package layout turns a resume aggregate into an ordered, deterministic list
// of positioned draw instructions for a paged canvas.
//
// Coordinates are in points with the origin at the top-left corner of the
// page. For text instructions Y is the top of the line box; renderers place
// the baseline themselves. Every instruction carries the page it belongs to,
// and a page_break instruction marks the start of a new page.
//
// The vertical cursor lives in a value owned by a single Layout call, so an
// Engine can be shared between goroutines.
package layout
