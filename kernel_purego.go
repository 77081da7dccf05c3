//go:build purego

package painter

var defaultKernel MaskKernel = ReferenceKernel{}
