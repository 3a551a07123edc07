// Package event provides the in-process event bus of corelink.
//
// The core manager publishes lifecycle and log events; every open event
// stream holds one Subscription. Publishing never blocks: a subscriber whose
// buffer is full misses the event and the drop is counted.
package event
