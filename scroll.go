package web2pdf

import "time"

// scrollOptions tunes lazy-load expansion.
type scrollOptions struct {
	step     int           // px per tick
	interval time.Duration // delay between ticks
}

// lazyLoadJS scrolls the page by step px every interval ms until the
// scrolled distance reaches the scroll height. The height is re-read on
// every tick so content appended while scrolling is reached too.
// The promise rejects once maxMillis elapse (0 = unbounded).
const lazyLoadJS = `(step, interval, maxMillis) => new Promise((resolve, reject) => {
	let total = 0;
	const started = Date.now();
	const timer = setInterval(() => {
		const root = document.scrollingElement || document.documentElement || document.body;
		const height = root ? root.scrollHeight : 0;
		window.scrollBy(0, step);
		total += step;
		if (total >= height) {
			clearInterval(timer);
			resolve(total);
			return;
		}
		if (maxMillis > 0 && Date.now() - started > maxMillis) {
			clearInterval(timer);
			reject(new Error("page still growing after " + maxMillis + "ms at " + total + "px"));
		}
	}, interval);
})`

// scrollGrace is added to the Go-side deadline of the scroll evaluation so
// the script reports its own timeout first.
const scrollGrace = 5 * time.Second
