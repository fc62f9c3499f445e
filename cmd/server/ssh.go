package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path"
	"syscall"
	"time"
	"unsafe"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"
)

const sshIdleTimeout = 5 * time.Minute

func setWinsize(f *os.File, w, h int) {
	syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uintptr(syscall.TIOCSWINSZ),
		uintptr(unsafe.Pointer(&struct{ h, w, x, y uint16 }{uint16(h), uint16(w), 0, 0})))
}

// serveSSH runs the terminal front door: each ssh session gets its own
// client process on a pty, pointed at this server.
func serveSSH(addr, clientBin, hostKey string) {
	handler := func(s ssh.Session) {
		ptyReq, winCh, isPty := s.Pty()
		if !isPty {
			io.WriteString(s, "non-interactive terminals are not supported\n")
			s.Exit(1)
			return
		}

		cmdCtx, cancelCmd := context.WithCancel(s.Context())
		defer cancelCmd()

		cmd := exec.CommandContext(cmdCtx, clientBin)
		cmd.Env = append(s.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

		f, err := pty.Start(cmd)
		if err != nil {
			io.WriteString(s, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
			s.Exit(1)
			return
		}
		defer f.Close()

		go func() {
			for win := range winCh {
				setWinsize(f, win.Width, win.Height)
			}
		}()

		go func() {
			io.Copy(f, s)
		}()
		io.Copy(s, f)

		f.Close()
		cmd.Wait()
	}

	srv := &ssh.Server{
		Addr:        addr,
		IdleTimeout: sshIdleTimeout,
		Handler:     handler,
	}
	if hostKey == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("ssh disabled: %v", err)
			return
		}
		hostKey = path.Join(home, ".ssh", "id_rsa")
	}
	if err := srv.SetOption(ssh.HostKeyFile(hostKey)); err != nil {
		log.Printf("ssh disabled: %v", err)
		return
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Printf("ssh server stopped: %v", err)
	}
}
