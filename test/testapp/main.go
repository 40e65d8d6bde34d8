package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// --- Lifecycle behavior ---
	exitAfter := flag.Duration("exit-after", 0, "Exit after duration (0=run until interrupted)")
	exitCode := flag.Int("exit-code", 0, "Exit code used by --exit-after")

	// --- Output behavior ---
	stdoutMsg := flag.String("stdout-msg", "", "Print this line to stdout on startup")
	stderrMsg := flag.String("stderr-msg", "", "Print this line to stderr on startup")
	printPID := flag.Bool("print-pid", false, "Print PID to stdout on startup")

	// --- Resource behavior ---
	allocMB := flag.Int("alloc-mb", 0, "Allocate this many MB of memory and hold it")
	cpuBurn := flag.Int("cpu-burn", 0, "Number of goroutines burning CPU")

	flag.Parse()

	if *printPID {
		fmt.Fprintf(os.Stdout, "PID=%d\n", os.Getpid())
	}
	if *stdoutMsg != "" {
		fmt.Fprintln(os.Stdout, *stdoutMsg)
	}
	if *stderrMsg != "" {
		fmt.Fprintln(os.Stderr, *stderrMsg)
	}

	// --- Memory allocation ---
	var memhold []byte
	if *allocMB > 0 {
		memhold = make([]byte, *allocMB*1024*1024)
		for i := range memhold {
			memhold[i] = byte(i)
		}
	}

	// --- CPU burn ---
	for i := 0; i < *cpuBurn; i++ {
		go func() {
			for {
				_ = rand.Float64()
			}
		}()
	}

	waitCh := make(chan os.Signal, 1)
	signal.Notify(waitCh, syscall.SIGINT, syscall.SIGTERM)

	var timeout <-chan time.Time
	if *exitAfter > 0 {
		timeout = time.After(*exitAfter)
	}
	select {
	case <-timeout:
		fmt.Fprintf(os.Stderr, "exiting with code %d (held %d bytes)\n", *exitCode, len(memhold))
		os.Exit(*exitCode)
	case sig := <-waitCh:
		fmt.Fprintf(os.Stderr, "%s received, exiting\n", sig)
		os.Exit(0)
	}
}
