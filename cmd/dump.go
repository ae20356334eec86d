// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/ezdwg/godwg"
	"github.com/spf13/cobra"
)

// entityDumpers maps a dumpable kind name to the File method that decodes
// it, each returning a slice of the concrete entity type boxed as
// interface{} for uniform JSON marshaling.
var entityDumpers = map[string]func(*dwg.File, int) (interface{}, error){
	"LINE":         func(f *dwg.File, n int) (interface{}, error) { return f.DecodeLineEntities(n) },
	"POINT":        func(f *dwg.File, n int) (interface{}, error) { return f.DecodePointEntities(n) },
	"ARC":          func(f *dwg.File, n int) (interface{}, error) { return f.DecodeArcEntities(n) },
	"CIRCLE":       func(f *dwg.File, n int) (interface{}, error) { return f.DecodeCircleEntities(n) },
	"ELLIPSE":      func(f *dwg.File, n int) (interface{}, error) { return f.DecodeEllipseEntities(n) },
	"SPLINE":       func(f *dwg.File, n int) (interface{}, error) { return f.DecodeSplineEntities(n) },
	"TEXT":         func(f *dwg.File, n int) (interface{}, error) { return f.DecodeTextEntities(n) },
	"ATTRIB":       func(f *dwg.File, n int) (interface{}, error) { return f.DecodeAttribEntities(n) },
	"ATTDEF":       func(f *dwg.File, n int) (interface{}, error) { return f.DecodeAttdefEntities(n) },
	"MTEXT":        func(f *dwg.File, n int) (interface{}, error) { return f.DecodeMTextEntities(n) },
	"INSERT":       func(f *dwg.File, n int) (interface{}, error) { return f.DecodeInsertEntities(n) },
	"MINSERT":      func(f *dwg.File, n int) (interface{}, error) { return f.DecodeMInsertEntities(n) },
	"POLYLINE_2D":  func(f *dwg.File, n int) (interface{}, error) { return f.DecodePolyline2DEntities(n) },
	"VERTEX_2D":    func(f *dwg.File, n int) (interface{}, error) { return f.DecodeVertex2DEntities(n) },
	"LWPOLYLINE":   func(f *dwg.File, n int) (interface{}, error) { return f.DecodeLWPolylineEntities(n) },
	"HATCH":        func(f *dwg.File, n int) (interface{}, error) { return f.DecodeHatchEntities(n) },
	"LEADER":       func(f *dwg.File, n int) (interface{}, error) { return f.DecodeLeaderEntities(n) },
	"LAYER":        func(f *dwg.File, n int) (interface{}, error) { return f.DecodeLayerEntities(n) },
	"DIM_LINEAR":   func(f *dwg.File, n int) (interface{}, error) { return f.DecodeDimLinearEntities(n) },
	"DIM_ALIGNED":  func(f *dwg.File, n int) (interface{}, error) { return f.DecodeDimAlignedEntities(n) },
	"DIM_ORDINATE": func(f *dwg.File, n int) (interface{}, error) { return f.DecodeDimOrdinateEntities(n) },
	"DIM_ANG3PT":   func(f *dwg.File, n int) (interface{}, error) { return f.DecodeDimAng3PtEntities(n) },
	"DIM_ANG2LN":   func(f *dwg.File, n int) (interface{}, error) { return f.DecodeDimAng2LnEntities(n) },
	"DIM_RADIUS":   func(f *dwg.File, n int) (interface{}, error) { return f.DecodeDimRadiusEntities(n) },
	"DIM_DIAMETER": func(f *dwg.File, n int) (interface{}, error) { return f.DecodeDimDiameterEntities(n) },
}

func prettyPrint(v interface{}) string {
	buf, err := json.Marshal(v)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return ""
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return pretty.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func printResult(s string) {
	os.Stdout.WriteString(s + "\n")
}

func dumpFile(filename string, wantKinds []string) {
	log.Printf("processing %s", filename)

	f, err := dwg.Open(filename, dwg.DefaultOptions())
	if err != nil {
		log.Printf("error opening %s: %v", filename, err)
		return
	}
	defer f.Close()

	if wantKinds == nil {
		for kind := range entityDumpers {
			wantKinds = append(wantKinds, kind)
		}
	}
	for _, kind := range wantKinds {
		dumper, ok := entityDumpers[kind]
		if !ok {
			log.Printf("unknown entity kind %q", kind)
			continue
		}
		rows, err := dumper(f, limit)
		if err != nil {
			log.Printf("%s: decode error: %v", kind, err)
			continue
		}
		printResult(prettyPrint(rows))
	}

	if showObjHeaders {
		printResult(prettyPrint(f.ObjectHeadersWithType(limit)))
	}
	if showDiag {
		printResult(prettyPrint(f.Diagnostics()))
	}
	if showAnomalies {
		printResult(prettyPrint(f.Anomalies()))
	}
}

func runDump(cmd *cobra.Command, args []string) {
	var files []string
	for _, arg := range args {
		if !isDirectory(arg) {
			files = append(files, arg)
			continue
		}
		filepath.Walk(arg, func(p string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				files = append(files, p)
			}
			return nil
		})
	}

	for _, file := range files {
		dumpFile(file, kinds)
	}
}
