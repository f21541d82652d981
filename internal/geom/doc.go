// Package geom holds the small amount of 3D math the ring field needs:
// vectors, axis-angle and elementary rotations, angle wrapping and a
// pinhole perspective projection.
package geom
