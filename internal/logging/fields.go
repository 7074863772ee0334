package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供模式/仓库/路径结构字段，供代理请求日志复用。
// owner/repo 在路径解析失败时可能为空。
func RequestFields(modeKey, method, path, owner, repo, shape string) logrus.Fields {
	return logrus.Fields{
		"mode":   modeKey,
		"method": method,
		"path":   path,
		"owner":  owner,
		"repo":   repo,
		"shape":  shape,
	}
}
