package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/esimov/seamcut"
	"github.com/esimov/seamcut/utils"
	"golang.org/x/term"
)

const helpBanner = `
┌─┐┌─┐┌─┐┌┬┐┌─┐┬ ┬┌┬┐
└─┐├┤ ├─┤│││  │ │ │
└─┘└─┘┴ ┴┴ ┴└─┘└─┘ ┴

Content aware image width reduction.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, URL or directory")
	destination = flag.String("out", "", "Destination image or directory")
	seamWidth   = flag.Int("seam", -1, "Number of columns to remove, 10% of the image width by default")
	maskPath    = flag.String("mask", "", "Grayscale mask: black to remove, mid gray neutral, white to preserve")
	autoResize  = flag.Bool("auto", false, "Use the widest removal band of the mask as seam width")
	debugDir    = flag.String("debug", "", "Directory where the energy, seam and mask of every iteration are saved")
	seamColor   = flag.String("color", "#00ff00", "Seam color of the debug overlay")
	compare     = flag.Bool("compare", false, "Also save a linear resize of the same width")
	faceDetect  = flag.Bool("face", false, "Preserve the detected faces")
	faceAngle   = flag.Float64("angle", 0.0, "Plane rotated faces angle")
	cascade     = flag.String("cc", "", "Cascade classifier")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	assumeYes   = flag.Bool("yes", false, "Do not ask for confirmation when the result is discarded")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *faceDetect && len(*cascade) == 0 {
		log.Fatal(utils.DecorateText("Please specify a face classifier in case you are using the -face flag!", utils.ErrorMessage))
	}

	proc := &seamcut.Processor{
		SeamWidth:  *seamWidth,
		MaskPath:   *maskPath,
		AutoResize: *autoResize,
		FaceDetect: *faceDetect,
		FaceAngle:  *faceAngle,
		Classifier: *cascade,
		Compare:    *compare,
	}

	if *debugDir != "" {
		dw, err := seamcut.NewDebugWriter(*debugDir, *seamColor)
		if err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		proc.Observers = append(proc.Observers, dw)
	}

	// Without an output or a debug directory the result would be lost.
	out := *destination
	if out == "" {
		if *debugDir == "" && !*assumeYes && !confirm(os.Stdin, os.Stderr) {
			fmt.Fprintln(os.Stderr, "Aborting. Use -h for help")
			os.Exit(0)
		}
		out = os.DevNull
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ SEAMCUT", utils.StatusMessage),
		utils.DecorateText("⇢ carving image...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*80)

	// Capture CTRL-C signal and restore the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	op := &seamcut.Ops{
		Src:      *source,
		Dst:      out,
		PipeName: pipeName,
		Workers:  *workers,
		Spinner:  spinner,
	}
	if err := proc.Execute(op); err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
}

// confirm asks whether to continue even though the result will be discarded.
// It only accepts an answer typed on a terminal.
func confirm(in *os.File, out io.Writer) bool {
	if !term.IsTerminal(int(in.Fd())) {
		return false
	}
	fmt.Fprintln(out, "No output or debug flag selected [-out, -debug], the result will be discarded.")
	fmt.Fprintln(out, "Continue anyway? [y/n]")

	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "yup":
		return true
	}
	return false
}
