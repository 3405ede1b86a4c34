// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package panier

var Version = "0.0.0"

const DefaultAPIURL = "http://localhost"
const DefaultAPIPort = 49684
