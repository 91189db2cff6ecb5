/*
Package seamcut is a content aware image width reduction library. It narrows the source
image by repeatedly removing the vertical seam of lowest importance, optionally steered
by a grayscale mask which marks the regions to be removed (black), preserved (white)
or left untouched (mid gray).

The package provides a command line interface supporting various flags. To check them type:

	$ seamcut --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/seamcut"
	)

	func main() {
		p := &seamcut.Processor{
			SeamWidth: 50,
			MaskPath:  "mask.png",
		}

		if err := p.Process(in, out); err != nil {
			fmt.Printf("Error carving image: %s", err.Error())
		}
	}
*/
package seamcut
