package util

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommand 各平台打开 URL 的首选命令
func browserCommand(goos, url string) []string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 到 11 上都可用，比 cmd /c start 稳定
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}
	case "darwin":
		return []string{"open", url}
	default:
		return []string{"xdg-open", url}
	}
}

// fallbackCommands 首选命令失败后依次尝试的命令
func fallbackCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		return [][]string{{"explorer", url}}
	case "linux":
		out := [][]string{}
		for _, b := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			out = append(out, []string{b, url})
		}
		return out
	default:
		return nil
	}
}

// OpenBrowser 用系统默认浏览器打开 URL，不等待进程退出
func OpenBrowser(url string) error {
	args := browserCommand(runtime.GOOS, url)
	return exec.Command(args[0], args[1:]...).Start()
}

// OpenBrowserWithFallback 首选方式失败时尝试备选浏览器
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}
	for _, args := range fallbackCommands(runtime.GOOS, url) {
		if exec.Command(args[0], args[1:]...).Start() == nil {
			return nil
		}
	}
	return fmt.Errorf("open browser: %w", err)
}

// LocalURL 本机访问地址
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
