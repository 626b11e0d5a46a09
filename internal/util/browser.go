package util

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
)

// browserCommands 各平台打开链接的命令，按优先级排列
var browserCommands = map[string][][]string{
	// rundll32 在 Windows 7 上也可用；explorer 作为降级
	"windows": {{"rundll32", "url.dll,FileProtocolHandler"}, {"explorer"}},
	"darwin":  {{"open"}},
	"linux":   {{"xdg-open"}, {"sensible-browser"}, {"google-chrome"}, {"firefox"}, {"chromium-browser"}},
}

// OpenBrowser 依次尝试平台命令打开默认浏览器，全部失败时返回第一个错误
func OpenBrowser(url string) error {
	cmds, ok := browserCommands[runtime.GOOS]
	if !ok {
		cmds = browserCommands["linux"]
	}

	var firstErr error
	for _, c := range cmds {
		args := append(append([]string(nil), c[1:]...), url)
		err := exec.Command(c[0], args...).Start()
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FindAvailablePort 从 startPort 开始向上找一个可监听的端口，最多尝试 attempts 次
func FindAvailablePort(startPort, attempts int) (int, error) {
	if attempts <= 0 {
		attempts = 1
	}
	for port := startPort; port < startPort+attempts; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in [%d, %d)", startPort, startPort+attempts)
}
