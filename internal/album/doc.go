// Package album renders matched assignments as a single static HTML
// page: one section per contact with its photos in capture order, a
// client-side search box, and a closing section for photos whose tags
// matched nobody. The page references photos by relative path and needs
// no server.
package album
