package utils

import (
	"os"
	"path/filepath"
)

const appDirName = "polyboard"

// GetConfigDir 获取跨平台的配置目录
// Windows: %APPDATA%/polyboard
// Linux/macOS: $XDG_CONFIG_HOME/polyboard 或 ~/.config/polyboard
func GetConfigDir() (string, error) {
	if configHome := os.Getenv("POLYBOARD_CONFIG_HOME"); configHome != "" {
		return configHome, nil
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appDirName), nil
	}

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appDirName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appDirName), nil
}

// ConfigFile 返回配置目录下的文件路径
func ConfigFile(name string) (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GetConfigPathForDisplay 获取用于显示的配置路径字符串
func GetConfigPathForDisplay() string {
	if path, err := ConfigFile("config.yaml"); err == nil {
		return path
	}
	return "~/.config/polyboard/config.yaml"
}
