// Package broker provides the pub/sub fabric behind the credit signal
// relay. Two implementations exist: an in-process broker backed by haxmap
// topics, and a NATS broker for processes that want balance updates to cross
// machine boundaries. Both deliver events to hooks without ever blocking a
// publisher for longer than the slow-subscriber timeout.
package broker
