// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ddminfer is the overall repository for simulation-based Bayesian
inference of drift-diffusion model (DDM) parameters, implemented in the
Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* ddm: the stochastic simulator for the drift-diffusion model, integrating
the SDE dX = mu*dt + sigma*dW with the Euler-Maruyama method, extracting
(reaction time, decision) outcomes from boundary crossings, and reducing
them to signed reaction-time histogram summary statistics.

* prior: the uniform prior distribution over drift rates.

* abc: rejection Approximate Bayesian Computation -- draws candidate drifts
from the prior, simulates summary statistics for each, and accepts the
fraction closest to the observed statistics.

* cde: a neural conditional density estimator -- a small feed-forward
network trained to map summary statistics to the mean and log-scale of a
Normal approximate posterior over the drift.

* examples: these compile into runnable programs.  examples/infer runs the
full pipeline on a fixed observed dataset and reports the approximate
posterior from both inference methods.
*/
package ddminfer
