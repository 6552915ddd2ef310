// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package revgrad computes gradients of single-expression functions with
// reverse-mode automatic differentiation.
//
// A function is written as source text whose body is one return expression
// over its parameters. MakeGradFn parses it, builds its computation graph
// once, and returns a Func that evaluates the value and the gradient at any
// point:
//
//	f, err := revgrad.MakeGradFn(`func(x, y float64) float64 {
//	    return x*y + math.Sin(math.Pow(x, 2))
//	}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := f.Call(3, 3)
//	// res.Value == 9 + sin(9)
//	// res.Gradients == [3 + 6cos(9), 3]
//
// Supported operators are + - * / and the functions Pow, Sin, Cos, Tan,
// Log, Exp and Sqrt of the math package. Further unary or binary functions
// can be added through a Registry.
//
// Functions can also be written in HCL with MakeGradFnHCL:
//
//	params = ["x", "y"]
//	body   = x * y + sin(pow(x, 2))
package revgrad
