// Package groups splits a rule list into named groups.
//
// A group starts at a header comment and collects every rule line until the
// next header:
//
//	# > Netflix
//	[/netflix.com/nflxvideo.net/]<DNS>
//	# > Youtube
//	[/youtube.com/googlevideo.com/]<DNS>
//
// Any other line starting with "#" is a comment and is never treated as a
// rule, even when it contains one. Lines before the first header are
// dropped. A header that repeats an earlier name continues that group.
package groups
