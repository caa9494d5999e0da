package utils

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// CopyToClipboard 将文本写入系统剪贴板
func CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("写入剪贴板失败: %w", err)
	}
	return nil
}
