// Command pulsectl triages risk reports from the command line, either against
// a configured model backend directly or through a running pulsed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Vinith-15116/studio1/internal/domain/model"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2
	exitUnavailable = 3
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var (
		validationErr *model.ValidationError
		backendErr    *model.BackendError
	)
	switch {
	case errors.As(err, &validationErr):
		return exitInvalid
	case errors.As(err, &backendErr):
		return exitUnavailable
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.InvalidArgument:
			return exitInvalid
		case codes.Unavailable, codes.DeadlineExceeded:
			return exitUnavailable
		}
	}
	return exitFailure
}
