// Package transport connects a producer of byte buffers to the state
// machines that frame message bodies.
//
// A Source hands out one buffer at a time. Pump feeds each buffer to a
// Consumer and asks the Source for the next one only after the previous
// one has been fully processed, so a slow consumer holds back the producer.
// Whatever the consumer does not need once it is done is returned to the
// caller as leftover bytes belonging to the next message on the stream.
package transport
