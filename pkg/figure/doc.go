// Package figure provides the mutable figure model that figfit's layout
// routines tune.
//
// A [Figure] is a canvas with a physical size in inches, a device resolution
// and a base font size. It owns zero or more [Axes] (rectangular plotting
// regions) and zero or more free-floating [Text] artists, plus an optional
// suptitle.
//
// # Coordinates
//
// All positions are figure-fractional: (0, 0) is the bottom-left corner and
// (1, 1) the top-right. Because fractions are relative to the figure extent,
// resizing the figure changes the physical size of every axes. Grid-placed
// axes derive their [Rect] from the figure's current [MarginSet] on every
// call to [Axes.Position], so geometry is never stale:
//
//	fig, _ := figure.New(4, 3)
//	ax, _ := fig.AddSubplot(1, 1, 1)
//	fig.Adjust(figure.MarginSet{Left: 0.2, Right: 0.8, Bottom: 0.2, Top: 0.9})
//	r := ax.Position() // {0.2 0.2 0.8 0.9}
//
// # Concurrency
//
// A Figure is not safe for concurrent mutation. Callers sharing one figure
// across goroutines serialize access with [Figure.Lock] and [Figure.Unlock];
// the layout routines hold the lock for the duration of a call.
package figure
