// Package window implements windowing constructs. In the world of data processing on an unbounded stream, Windowing
// is a concept of grouping data using temporal boundaries.
//
// Session windows are unaligned: they are applied per key, and a session of one key has no relation to the
// sessions of another. A session grows as long as consecutive events are at most the idle gap apart; the first
// event after a longer silence opens a new session. The idle gap is described by a Spec, parsed once from a
// shorthand duration such as "30m" and immutable afterwards.
//
// The segmentation itself lives in the strategy/session package.
package window
