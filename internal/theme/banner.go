package theme

import (
	"fmt"
	"io"
)

// Banner returns the startup banner.
func Banner() string {
	const cyan = "\033[36m"
	const magenta = "\033[35m"
	const reset = "\033[0m"

	art := "" +
		cyan + "   o---o       o\n" + reset +
		cyan + "    \\   \\     /\n" + reset +
		cyan + "     o---o---o     " + magenta + "FRIENDGRAPH" + reset + "\n" +
		cyan + "        /     \\\n" + reset +
		cyan + "       o       o\n" + reset +
		"   users, friends and posts, all in memory\n"
	return art
}

// PrintBanner writes the banner to w.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, Banner())
}
