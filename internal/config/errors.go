package config

import "github.com/atlanticdynamic/scripthook/internal/config/errz"

var (
	ErrFailedToLoadConfig     = errz.ErrFailedToLoadConfig
	ErrFailedToValidateConfig = errz.ErrFailedToValidateConfig
	ErrUnsupportedConfigVer   = errz.ErrUnsupportedConfigVer
	ErrUnsupportedExtension   = errz.ErrUnsupportedExtension
)
