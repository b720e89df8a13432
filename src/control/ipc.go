package control

import (
	"bufio"
	"context"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lineWriter) WriteLine(s string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := io.WriteString(l.w, s+"\n")
	return err
}

// ServeIPC accepts control connections on a unix socket until ctx is done.
func ServeIPC(ctx context.Context, path string, s *Surface) error {
	os.Remove(path)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", path)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		os.Remove(path)
	}()
	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			log.Printf("error while closing listener: %v", err)
		}
	}()
	log.Printf("start listening on %s...\n", path)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serveConn(ctx, conn, s); err != nil {
				log.Printf("connection error: %v", err)
			}
		}()
	}
}

func serveConn(ctx context.Context, conn net.Conn, s *Surface) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	w := &lineWriter{w: conn}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return receiveCommands(gctx, conn, w, s)
	})
	g.Go(func() error {
		return sendReports(gctx, w, s, refreshInterval)
	})
	return g.Wait()
}

func receiveCommands(ctx context.Context, conn io.Reader, w *lineWriter, s *Surface) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			if ctx.Err() != nil {
				break loop
			}
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		log.Printf("received: %s\n", string(line))
		reply := execLine(s, string(line))
		line = []byte{}
		if reply == "" {
			continue
		}
		if err := w.WriteLine(reply); err != nil {
			return err
		}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

// execLine runs one command line and formats the reply, "" for blank input.
func execLine(s *Surface, line string) string {
	command, err := ParseCommand(line)
	if err != nil {
		return "error " + err.Error()
	}
	if len(command) == 0 {
		return ""
	}
	reply, err := s.Exec(command)
	if err != nil {
		return "error " + err.Error()
	}
	return reply
}

// sendReports writes a status line for every refresh that changed the
// status, starting with the current one.
func sendReports(ctx context.Context, w *lineWriter, s *Surface, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	var sent uint64
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			data, seq := s.latest()
			if seq == sent {
				continue
			}
			sent = seq
			if err := w.WriteLine("status " + string(data)); err != nil {
				return err
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}
