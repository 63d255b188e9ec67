package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jugwang/labblog/scaffold"
)

func runNew(dir string, stdout io.Writer) error {
	fmt.Fprintf(stdout, "Creating new labblog site: %s\n\n", dir)
	created, err := scaffold.Generate(dir, scaffold.NewData(dir, time.Now()))
	for _, path := range created {
		fmt.Fprintf(stdout, "  created %s\n", path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Done! Next steps:")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  cd %s\n", dir)
	fmt.Fprintln(stdout, "  labblog serve")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Add Markdown files to contents/__posts; the file name is the post slug.")
	fmt.Fprintln(stdout, "Set SESSION_SECRET in .env for production.")
	return nil
}
