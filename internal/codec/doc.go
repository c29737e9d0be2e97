// Package codec is the boundary to the image and video codec collaborators.
//
// Still decode, motion-track probing, motion extraction, and sequential
// frame decode are provided by a Service that shells out to ffmpeg/ffprobe;
// consumers depend on the small interfaces declared here so tests can stand
// in fakes. Frame scaling is pure Go and shared by the still and motion
// paths so hover transitions are geometrically seamless.
package codec
