package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		port := serveCmd.String("p", "5000", "Port to listen on")
		serveCmd.Parse(os.Args[2:])
		serve(*port)
	case "watch":
		watchCmd := flag.NewFlagSet("watch", flag.ExitOnError)
		dir := watchCmd.String("dir", ".", "Directory to watch for incoming samples")
		watchCmd.Parse(os.Args[2:])
		watchCommand(*dir)
	case "sort":
		sortCmd := flag.NewFlagSet("sort", flag.ExitOnError)
		dir := sortCmd.String("dir", ".", "Directory of samples to sort")
		sortCmd.Parse(os.Args[2:])
		sortCommand(*dir)
	case "classify":
		classifyCmd := flag.NewFlagSet("classify", flag.ExitOnError)
		classifyCmd.Parse(os.Args[2:])
		if classifyCmd.NArg() < 1 {
			fmt.Println("Usage: sample-sorter classify <audio file>")
			os.Exit(1)
		}
		classifyCommand(classifyCmd.Arg(0))
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Expected 'serve', 'watch', 'sort' or 'classify' subcommand")
}
