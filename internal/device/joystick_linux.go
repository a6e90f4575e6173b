//go:build linux

package device

import (
	"bytes"
	"io"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/record"
)

// ioctl requests from linux/joystick.h.
const (
	jsiocgaxes    = 0x80016a11 // _IOR('j', 0x11, __u8)
	jsiocgbuttons = 0x80016a12 // _IOR('j', 0x12, __u8)
	jsiocgaxmap   = 0x80406a32 // _IOR('j', 0x32, __u8[ABS_CNT])
	jsiocgname    = 0x80006a13 // _IOC(_IOC_READ, 'j', 0x13, len)

	absCnt  = 0x40
	nameLen = 128
)

// Open implements Reader. The node is opened non-blocking so Read can
// drain pending events and return immediately.
func (j *Joystick) Open() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.open {
		return errors.NewDeviceError("device already open", errors.ErrInvalidState).WithPath(j.path)
	}

	path := j.path
	if path == "" {
		paths, err := MatchPaths(j.pattern)
		if err != nil {
			return unavailable(j.pattern, "list devices", err)
		}
		if len(paths) == 0 {
			return unavailable(j.pattern, "no controller connected", nil)
		}
		path = paths[0]
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return unavailable(path, "open device", err)
	}

	name, st, err := queryLayout(fd)
	if err == nil {
		// The driver queues one init event per axis and button on open.
		err = drain(fd, &st)
	}
	if err != nil {
		_ = unix.Close(fd)
		return unavailable(path, "query device", err)
	}

	j.path = path
	j.fd = fd
	j.name = name
	j.state = st
	j.schema = record.NewSchema(st.capabilities())
	j.open = true
	return nil
}

// Read implements Reader.
func (j *Joystick) Read() (record.Sample, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.open {
		return record.Sample{}, errors.NewDeviceError("device not open", errors.ErrReadFailure).WithPath(j.path)
	}
	if err := drain(j.fd, &j.state); err != nil {
		return record.Sample{}, errors.NewDeviceError("read device", errors.Join(errors.ErrReadFailure, err)).
			WithPath(j.path)
	}
	return j.state.sample(j.now()), nil
}

// Close implements Reader.
func (j *Joystick) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.open {
		return nil
	}
	j.open = false
	fd := j.fd
	j.fd = -1
	if err := unix.Close(fd); err != nil {
		return errors.Wrapf(err, "close %s", j.path)
	}
	return nil
}

func unavailable(path, msg string, cause error) error {
	if cause != nil {
		cause = errors.Join(errors.ErrDeviceUnavailable, cause)
	} else {
		cause = errors.ErrDeviceUnavailable
	}
	return errors.NewDeviceError(msg, cause).WithPath(path)
}

func queryLayout(fd int) (string, padState, error) {
	var axes, buttons [1]byte
	if err := ioctl(fd, jsiocgaxes, axes[:]); err != nil {
		return "", padState{}, err
	}
	if err := ioctl(fd, jsiocgbuttons, buttons[:]); err != nil {
		return "", padState{}, err
	}

	var axmap [absCnt]byte
	if err := ioctl(fd, jsiocgaxmap, axmap[:]); err != nil {
		return "", padState{}, err
	}
	n := int(axes[0])
	if n > absCnt {
		n = absCnt
	}

	var name [nameLen]byte
	if err := ioctl(fd, jsiocgname|nameLen<<16, name[:]); err != nil {
		// Name is cosmetic; some drivers do not report one.
		name = [nameLen]byte{}
	}
	if i := bytes.IndexByte(name[:], 0); i >= 0 {
		return string(name[:i]), newPadState(axmap[:n], int(buttons[0])), nil
	}
	return string(name[:]), newPadState(axmap[:n], int(buttons[0])), nil
}

func ioctl(fd int, req uintptr, buf []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return errno
	}
	return nil
}

// drain applies every pending event to st and returns once the driver
// queue is empty.
func drain(fd int, st *padState) error {
	var buf [eventSize * 64]byte
	for {
		n, err := unix.Read(fd, buf[:])
		switch {
		case errors.Is(err, unix.EAGAIN):
			return nil
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return err
		case n == 0:
			return io.ErrUnexpectedEOF
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			st.apply(decodeEvent(buf[off : off+eventSize]))
		}
		if n < len(buf) {
			return nil
		}
	}
}
