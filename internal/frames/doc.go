// Package frames loads indexed bitmap strips and normalizes them to the
// panel's tile size.
//
// A strip is one wide bitmap holding uniform frames side by side. Bitmaps
// come in two size classes: Target, whose tile matches the panel, and
// Legacy, whose tile is half the panel in each direction and is upscaled
// 2x by block replication before display.
package frames
