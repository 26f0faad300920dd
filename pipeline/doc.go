// Package pipeline
// Author: momentics <momentics@gmail.com>
//
// Real-time capture pipeline built on pool.Pipe.
//
// One Producer captures frames from a Source into pipe slots and publishes
// each with an increasing sequence number. Consumer 0 is the Display stage:
// it copies every frame out, releases the slot at once and shows the copy
// with the current overlays. Consumers 1..N are Analysis stages: they skip
// the backlog, analyze the freshest frame in place and store the detected
// rectangles in the shared Overlays. Pipeline wires the stages together,
// supervises them with an errgroup and exposes stats and debug probes.
package pipeline
