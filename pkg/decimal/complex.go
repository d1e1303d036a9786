package decimal

// Complex is an arbitrary-precision complex number.
type Complex struct {
	Re, Im Decimal
}

func (z Complex) String() string {
	sign := "+"
	if z.Im.Sign() < 0 {
		sign = ""
	}
	return z.Re.String() + sign + z.Im.String() + "i"
}

// CAdd returns a+b.
func (c *Context) CAdd(a, b Complex) (Complex, error) {
	re, err := c.Add(a.Re, b.Re)
	if err != nil {
		return Complex{}, err
	}
	im, err := c.Add(a.Im, b.Im)
	if err != nil {
		return Complex{}, err
	}
	return Complex{Re: re, Im: im}, nil
}

// CMul returns a*b.
func (c *Context) CMul(a, b Complex) (Complex, error) {
	rr, err := c.Mul(a.Re, b.Re)
	if err != nil {
		return Complex{}, err
	}
	ii, err := c.Mul(a.Im, b.Im)
	if err != nil {
		return Complex{}, err
	}
	ri, err := c.Mul(a.Re, b.Im)
	if err != nil {
		return Complex{}, err
	}
	ir, err := c.Mul(a.Im, b.Re)
	if err != nil {
		return Complex{}, err
	}
	re, err := c.Sub(rr, ii)
	if err != nil {
		return Complex{}, err
	}
	im, err := c.Add(ri, ir)
	if err != nil {
		return Complex{}, err
	}
	return Complex{Re: re, Im: im}, nil
}

// CSquare returns z², using re²-im² and 2·re·im.
func (c *Context) CSquare(z Complex) (Complex, error) {
	re2, err := c.Pow(z.Re, 2)
	if err != nil {
		return Complex{}, err
	}
	im2, err := c.Pow(z.Im, 2)
	if err != nil {
		return Complex{}, err
	}
	re, err := c.Sub(re2, im2)
	if err != nil {
		return Complex{}, err
	}
	reim, err := c.Mul(z.Re, z.Im)
	if err != nil {
		return Complex{}, err
	}
	im, err := c.MulInt(reim, 2)
	if err != nil {
		return Complex{}, err
	}
	return Complex{Re: re, Im: im}, nil
}

// MagnitudeSquared returns re²+im².
func (c *Context) MagnitudeSquared(z Complex) (Decimal, error) {
	re2, err := c.Pow(z.Re, 2)
	if err != nil {
		return Decimal{}, err
	}
	im2, err := c.Pow(z.Im, 2)
	if err != nil {
		return Decimal{}, err
	}
	return c.Add(re2, im2)
}

// CEqual compares both components with Equal.
func (c *Context) CEqual(a, b Complex) bool {
	return c.Equal(a.Re, b.Re) && c.Equal(a.Im, b.Im)
}
