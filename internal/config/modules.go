package config

import (
	_ "github.com/ghraw-proxy/ghraw-proxy/internal/mode/multi"
	_ "github.com/ghraw-proxy/ghraw-proxy/internal/mode/single"
	_ "github.com/ghraw-proxy/ghraw-proxy/internal/mode/strict"
)
