package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/linecore/core"
	"github.com/dshills/linecore/internal/logging"
	"github.com/dshills/linecore/internal/rpc"
)

// maxMessageSize bounds one request line.
const maxMessageSize = 16 << 20

type replayFlags struct {
	content string
	dump    bool
}

func newReplayCommand(global *globalFlags) *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay [requests.jsonl]",
		Short: "Apply a stream of JSON requests to a document",
		Long:  replayLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.content, "content", "", "file holding the initial document")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "print the final document after the last request")

	return cmd
}

const replayLongDescription = `Read newline-delimited JSON requests and apply them in order.

Each request has the form {"id": ..., "method": ..., "params": {...}}. Every
invalidation and response is written to standard output as one JSON line.
Requests are read from standard input when no file is given.

Examples:
  linecore replay session.jsonl
  linecore replay --content main.go --dump < edits.jsonl`

// printer writes notifications as JSON lines.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) write(data []byte, err error) {
	if p.err != nil {
		return
	}
	if err == nil {
		data = append(data, '\n')
		_, err = p.w.Write(data)
	}
	p.err = err
}

func (p *printer) OnResponse(resp core.Response) {
	p.write(rpc.EncodeResponse(resp))
}

func (p *printer) OnInvalidate(r core.Invalidation) {
	p.write(rpc.EncodeInvalidation(r))
}

func runReplay(cmd *cobra.Command, args []string, global *globalFlags, flags *replayFlags) error {
	logger := logging.Default()

	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	opts := []core.Option{core.WithConfig(cfg), core.WithLogger(logger)}

	if flags.content != "" {
		f, err := os.Open(flags.content)
		if err != nil {
			return err
		}
		defer f.Close()
		opts = append(opts, core.WithReader(f))
	}

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	p := &printer{w: out}

	h, err := core.New(p, opts...)
	if err != nil {
		return err
	}
	defer h.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	count := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if err := h.SendMessage(line); err != nil {
			return err
		}
		if p.err != nil {
			return fmt.Errorf("writing output: %w", p.err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}

	rev, _ := h.Revision()
	logger.Debug("replay finished", "requests", count, logging.FieldRevision, rev)

	if flags.dump {
		if _, err := h.WriteTo(out); err != nil {
			return err
		}
	}
	return out.Flush()
}
