// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

const (
	Tool   = "panier"
	Banner = `
                      o0o            
 oooo0    ooo0   oooo  0o   ooo0   oooo 
 0o  o0      0o  0o  o 0o  0o  o0  0o   
 0o  o0   o0oo0  0o  o 0o  0ooo0   0o   
 0oooo   0o  0o  0o  o 0o  0o      0o   
 0o       oo0o0  0o  o 0o   ooo0   0o    vversion
`
	DocRoot = "https://github.com/platform-engineering-labs/panier"
)
